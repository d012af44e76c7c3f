// Package testfixtures holds resume texts shared by package tests.
package testfixtures

// DataScienceResume passes screening and targets the Data Science domain
const DataScienceResume = `Priya Sharma

EDUCATION
Bachelor of Technology in Computer Science, National Institute of Technology
GPA: 8.7 / 10, graduation expected this spring

EXPERIENCE
Data Science Intern at Finlytics
- Developed a churn prediction model with Python and Pandas that improved retention by 12%
- Built interactive dashboards in Tableau used by the marketing team
- Optimized SQL queries and reduced report generation time by 3x

Research Assistant, Analytics Lab
- Analyzed survey data with NumPy and Statistics methods
- Implemented data visualization notebooks in Jupyter with Matplotlib and Seaborn
- Led a team of four students and delivered results ahead of schedule

PROJECTS
- Designed a recommendation system using Machine Learning for a college library
- Created a Power BI report covering 50+ regional stores

SKILLS
Python, Pandas, NumPy, SQL, Machine Learning, Data Analysis, Excel, Tableau

CERTIFICATIONS
Google Data Analytics certificate, course on Big Data processing
`

// WebResume passes screening and targets the Web Development domain
const WebResume = `Arjun Mehta

EDUCATION
Bachelor of Engineering in Information Technology, State University
CGPA: 7.9, graduation in the summer semester

EXPERIENCE
Frontend Developer Intern at Shopwise
- Developed responsive pages with React, JavaScript and CSS for the checkout flow
- Implemented a REST API client in TypeScript and reduced page load time by 40%
- Collaborated with designers and shipped features every sprint

Freelance Web Projects
- Built portfolio websites with HTML, Bootstrap and jQuery for local businesses
- Created a Node.js and Express backend with MongoDB for a booking platform
- Managed deployments and version history with Git for several clients

SKILLS
JavaScript, React, Node.js, Express, MongoDB, HTML, CSS, Git, TypeScript

CERTIFICATIONS
Completed an online course on web application security and accessibility
`

// Short is below the minimum length
const Short = "Python developer with experience."
